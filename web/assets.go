package web

const styles = `
*{box-sizing:border-box}
body{margin:0;font-family:system-ui,-apple-system,"Segoe UI",Roboto,sans-serif;background:#f4f5f7;color:#222}
a{color:#2456a6}
.navbar{display:flex;flex-wrap:wrap;align-items:center;gap:1rem;padding:.75rem 1.5rem;background:#1f2d3d;color:#fff}
.navbar a{color:#fff;text-decoration:none}
.brand{font-weight:700;font-size:1.25rem}
.nav-toggle{display:none;margin-left:auto;background:none;border:0;color:#fff;font-size:1.5rem;cursor:pointer}
.nav-menu{display:flex;flex:1;align-items:center;justify-content:space-between;gap:1rem}
.nav-links{display:flex;gap:.25rem;list-style:none;margin:0;padding:0}
.nav-link{padding:.4rem .7rem;border-radius:4px}
.nav-link.active,.nav-link:hover{background:rgba(255,255,255,.15)}
.nav-session{display:flex;align-items:center;gap:.5rem}
.content{max-width:1200px;margin:0 auto;padding:1.5rem}
.btn{display:inline-block;padding:.45rem .9rem;border:1px solid #ccd;border-radius:4px;background:#fff;color:#222;text-decoration:none;cursor:pointer;font-size:.9rem}
.btn-primary{background:#2456a6;border-color:#2456a6;color:#fff}
.btn-danger{background:#c0392b;border-color:#c0392b;color:#fff}
.btn-light{background:transparent;border-color:rgba(255,255,255,.5);color:#fff}
.btn.block{display:block;width:100%}
form.inline{display:inline}
.alert{padding:.75rem 1rem;border-radius:4px;margin:1rem 0}
.alert-error{background:#fdecea;color:#8a1f11}
.alert-success{background:#e8f6ec;color:#1d6b34}
.hero{text-align:center;padding:2rem 0}
.tiles,.cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(240px,1fr));gap:1rem}
.tile,.card{background:#fff;border-radius:6px;box-shadow:0 1px 3px rgba(0,0,0,.1);overflow:hidden}
.tile{padding:1rem;color:inherit;text-decoration:none}
.list-header{display:flex;justify-content:space-between;align-items:center}
.search{position:relative;margin:1rem 0}
.search input{width:100%;padding:.6rem 2rem .6rem .8rem;border:1px solid #ccd;border-radius:4px;font-size:1rem}
.search-clear{position:absolute;right:.7rem;top:.55rem;text-decoration:none;color:#888}
.counter{color:#666;font-size:.9rem}
.thumb{display:block;width:100%;height:180px;object-fit:cover;background:#e5e7eb}
.thumb.placeholder{display:flex;align-items:center;justify-content:center;font-size:3rem}
.card-body{padding:.75rem 1rem}
.card-body h3{margin:.2rem 0 .5rem}
.summary{margin:.2rem 0;font-size:.9rem}
.card-actions{display:flex;flex-wrap:wrap;gap:.4rem;margin-top:.75rem}
.empty{text-align:center;color:#666;padding:3rem 0}
.pager{display:flex;flex-wrap:wrap;justify-content:center;gap:.3rem;margin:1.5rem 0}
.page{padding:.35rem .7rem;border:1px solid #ccd;border-radius:4px;background:#fff;text-decoration:none}
.page.current{background:#2456a6;color:#fff;border-color:#2456a6}
.page.disabled,.page.gap{color:#aaa;border-color:transparent;background:none}
.detail{background:#fff;border-radius:6px;padding:1.5rem;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.detail-images{display:flex;flex-wrap:wrap;gap:1rem}
.detail-image img{max-height:260px;border-radius:4px}
.zoomable{cursor:zoom-in}
.detail-fields{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:.75rem 1.5rem}
.detail-row dt{font-weight:600;color:#555}
.detail-row dd{margin:0}
.detail-row dd.long{white-space:pre-wrap}
.detail-actions,.form-actions{display:flex;gap:.5rem;margin-top:1.5rem}
.back{display:inline-block;margin-bottom:1rem}
.form-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(280px,1fr));gap:1rem}
.form-field{display:flex;flex-direction:column;gap:.3rem}
.form-field.wide{grid-column:1/-1}
.form-field input[type=text],.form-field input[type=password],.form-field select,.form-field textarea{padding:.5rem;border:1px solid #ccd;border-radius:4px;font:inherit}
.checkbox{display:flex;align-items:center;gap:.3rem}
.preview{max-height:160px;border-radius:4px}
.auth-card,.confirm,.notfound{max-width:420px;margin:2rem auto;background:#fff;padding:1.5rem;border-radius:6px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.modal{display:none;position:fixed;inset:0;background:rgba(0,0,0,.8);align-items:center;justify-content:center;z-index:10}
.modal.open{display:flex}
.modal img{max-width:90vw;max-height:90vh}
.modal-close{position:absolute;top:1rem;right:1rem;background:none;border:0;color:#fff;font-size:2rem;cursor:pointer}
@media (max-width:768px){
.nav-toggle{display:block}
.nav-menu{display:none;flex-basis:100%;flex-direction:column;align-items:flex-start}
.nav-menu.open{display:flex}
.nav-links{flex-direction:column}
}
`

const scripts = `
(function(){
var toggle=document.getElementById("nav-toggle"),menu=document.getElementById("nav-menu");
if(toggle&&menu){toggle.addEventListener("click",function(){
var open=menu.classList.toggle("open");toggle.setAttribute("aria-expanded",open?"true":"false");});}

document.querySelectorAll("input[data-debounce]").forEach(function(input){
var timer,wait=parseInt(input.dataset.debounce,10)||300;
input.addEventListener("input",function(){clearTimeout(timer);
timer=setTimeout(function(){input.form.submit();},wait);});
if(input.hasAttribute("autofocus")){var n=input.value.length;input.setSelectionRange(n,n);}});

document.querySelectorAll("input[data-numeric]").forEach(function(input){
input.addEventListener("input",function(){
if(input.dataset.numeric==="int"){input.value=input.value.replace(/\D/g,"");return;}
var v=input.value.replace(/,/g,".").replace(/[^\d.]/g,""),i=v.indexOf(".");
if(i>=0){v=v.slice(0,i+1)+v.slice(i+1).replace(/\./g,"");}input.value=v;});});

document.querySelectorAll("form[data-confirm]").forEach(function(form){
form.addEventListener("submit",function(e){
if(!window.confirm(form.dataset.confirm)){e.preventDefault();return;}
var c=document.createElement("input");c.type="hidden";c.name="confirm";c.value="yes";form.appendChild(c);});});

var modal=document.getElementById("image-modal");
if(modal){var img=document.getElementById("image-modal-img");
var close=function(){modal.classList.remove("open");modal.setAttribute("aria-hidden","true");img.removeAttribute("src");};
document.querySelectorAll("img[data-modal-src]").forEach(function(el){
el.addEventListener("click",function(){img.src=el.dataset.modalSrc;modal.classList.add("open");modal.setAttribute("aria-hidden","false");});});
modal.addEventListener("click",close);
modal.querySelector(".modal-close").addEventListener("click",close);
img.addEventListener("click",function(e){e.stopPropagation();});
document.addEventListener("keydown",function(e){if(e.key==="Escape"){close();}});}

document.querySelectorAll("input[type=file][data-max-bytes]").forEach(function(input){
input.addEventListener("change",function(){var f=input.files[0];if(!f){return;}
if(f.type.indexOf("image/")!==0){alert("Please select a valid image file");input.value="";return;}
if(f.size>parseInt(input.dataset.maxBytes,10)){alert("The image must not exceed 5MB");input.value="";}});});

document.querySelectorAll("select[data-depends-on]").forEach(function(sel){
var parent=document.getElementById(sel.dataset.dependsOn),options=JSON.parse(sel.dataset.options||"{}");
if(!parent){return;}
parent.addEventListener("change",function(){
var list=options[parent.value]||[];sel.innerHTML="";
var blank=document.createElement("option");blank.value="";blank.textContent="Select...";sel.appendChild(blank);
list.forEach(function(v){var o=document.createElement("option");o.value=v;o.textContent=v;sel.appendChild(o);});
sel.disabled=list.length===0;sel.dispatchEvent(new Event("change"));});});

document.querySelectorAll("[data-show-field]").forEach(function(box){
var src=document.getElementById(box.dataset.showField);if(!src){return;}
var sync=function(){box.hidden=src.value!==box.dataset.showValue;};
src.addEventListener("change",sync);});
})();
`
