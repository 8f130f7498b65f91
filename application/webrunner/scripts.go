package webrunner

// Scripts run through Driver.ExecuteScript; arguments[i] are the call args.

const overlayScript = `
let logDiv = document.getElementById('automation-logger');
if (!logDiv) {
	logDiv = document.createElement('div');
	logDiv.id = 'automation-logger';
	logDiv.style.position = 'fixed';
	logDiv.style.top = '10px';
	logDiv.style.left = '10px';
	logDiv.style.padding = '10px';
	logDiv.style.background = 'rgba(0,0,0,0.7)';
	logDiv.style.color = 'white';
	logDiv.style.fontSize = '14px';
	logDiv.style.zIndex = 9999;
	logDiv.style.borderRadius = '8px';
	logDiv.style.boxShadow = '0 0 10px rgba(0,0,0,0.5)';
	document.body.appendChild(logDiv);
}
logDiv.innerText = arguments[0];
`

const scrollIntoViewScript = `arguments[0].scrollIntoView({behavior: "auto", block: "center", inline: "center"});`

const clickScript = `arguments[0].click();`

const selectOptionScript = `
const option = arguments[0];
const select = option.closest('select');
option.selected = true;
if (select) {
	select.dispatchEvent(new Event('input', {bubbles: true}));
	select.dispatchEvent(new Event('change', {bubbles: true}));
}
`

// dropFileScript args: target, base64 content, file name, mime type
const dropFileScript = `
const target = arguments[0];
const raw = atob(arguments[1]);
const bytes = new Uint8Array(raw.length);
for (let i = 0; i < raw.length; i++) {
	bytes[i] = raw.charCodeAt(i);
}
const file = new File([bytes], arguments[2], {type: arguments[3]});
const transfer = new DataTransfer();
transfer.items.add(file);
for (const type of ['dragenter', 'dragover', 'drop']) {
	target.dispatchEvent(new DragEvent(type, {bubbles: true, cancelable: true, dataTransfer: transfer}));
}
`
